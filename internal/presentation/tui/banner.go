package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the launch banner with the version and target namespace.
func PrintBanner(w io.Writer, p termenv.Profile, version, namespace string) {
	if namespace == "" {
		namespace = "/"
	}
	title := p.String(" planlaunch ").Bold().Foreground(p.Color("#0f172a")).Background(p.Color("#a78bfa"))
	ver := p.String(version).Foreground(p.Color("#818cf8"))
	ns := p.String(namespace).Foreground(p.Color("#f472b6"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s  temporal planning in %s\n", title, ver, ns)
	fmt.Fprintln(w)
}
