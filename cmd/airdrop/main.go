package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/keytree/airdrop/internal/build"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: airdrop <input-prefix>")
		os.Exit(1)
	}
	prefix := os.Args[1]

	if err := run(prefix, log); err != nil {
		log.WithField("stack", string(debug.Stack())).Error(err)
		os.Exit(1)
	}
}

func run(prefix string, log *logrus.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("airdrop: panic: %v", r)
		}
	}()
	return build.Run(prefix, log)
}
