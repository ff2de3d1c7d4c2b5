// Package cli is the interactive terminal front end of the site. It wires
// the configured backends together and offers a small REPL over the public
// pages, the VIP area and the admin panel.
package cli
