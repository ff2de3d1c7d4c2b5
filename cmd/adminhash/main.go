// Command adminhash prints the bcrypt hash to configure as
// admin_password_hash for the local identity backend.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/identity"
	"golang.org/x/term"
)

func main() {
	var password string

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Passwort: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatalf("%v", err)
		}
		password = string(pw)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("%v", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if password == "" {
		log.Fatal("empty password")
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(hash)
}
