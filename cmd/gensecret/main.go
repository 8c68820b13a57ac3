// Generate a random hex encoded secret suitable for the SECRET_KEY setting
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	size := pflag.IntP("bytes", "b", 32, "secret length in bytes before hex encoding")
	pflag.Parse()

	secret := make([]byte, *size)
	if _, err := rand.Read(secret); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(secret))
}
