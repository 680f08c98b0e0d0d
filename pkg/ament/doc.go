/*
Package ament resolves package names to install locations.

It follows the layout of an ament resource index: every install prefix listed
in AMENT_PREFIX_PATH registers its packages as empty marker files under
share/ament_index/resource_index/packages. A package's share directory is
<prefix>/share/<pkg> and its executables live in <prefix>/lib/<pkg>.

Lookups never cache; the filesystem is consulted on every call.
*/
package ament
