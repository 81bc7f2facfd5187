// Command hashsecret prints an argon2id hash for use as ADMIN_PASSWORD.
//
//	go run ./cmd/hashsecret 'my admin secret'
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ishow/feedback-backend/pkg/utils"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: hashsecret <secret>")
		os.Exit(2)
	}

	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash secret")
	}
	fmt.Println(hash)
}
