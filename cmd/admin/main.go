package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"strings"

	"skaplSite/internal/auth"
)

// Generates the ADMIN_PASSWORD_HASH / ADMIN_JWT_SECRET values for the
// environment. With no -password flag a random password is generated and
// printed once.
func main() {
	var (
		password  = flag.String("password", "", "operator password to hash (optional; random when empty)")
		jwtSecret = flag.Bool("jwt-secret", true, "also generate a random JWT signing secret")
	)
	flag.Parse()

	pw := strings.TrimSpace(*password)
	generated := false
	if pw == "" {
		random, err := randomToken(24)
		if err != nil {
			log.Fatalf("generate password: %v", err)
		}
		pw = random
		generated = true
	}

	hashed, err := auth.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if generated {
		fmt.Printf("Generated operator password (shown once):\n%s\n\n", pw)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hashed)

	if *jwtSecret {
		secret, err := randomToken(32)
		if err != nil {
			log.Fatalf("generate jwt secret: %v", err)
		}
		fmt.Printf("ADMIN_JWT_SECRET=%s\n", secret)
	}
}

func randomToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
