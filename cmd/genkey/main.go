// Command genkey generates a random secret suitable for signing JWTs.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

func main() {
	size := flag.Int("bytes", 32, "Number of random bytes in the secret")
	envFormat := flag.Bool("env", false, "Print as a JWT_SECRET= line for .env files")
	flag.Parse()

	if *size < 32 {
		fmt.Fprintln(os.Stderr, "error: secret must be at least 32 bytes")
		os.Exit(1)
	}

	buf := make([]byte, *size)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to read random bytes: %v\n", err)
		os.Exit(1)
	}

	secret := base64.RawURLEncoding.EncodeToString(buf)
	if *envFormat {
		fmt.Printf("JWT_SECRET=%s\n", secret)
	} else {
		fmt.Println(secret)
	}
}
