package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"token-forge.backend/internal/config"
	"token-forge.backend/pkg/jwt"
)

func main() {
	address := flag.String("address", "", "wallet address to mint a token for (required)")
	role := flag.String("role", "user", "token role: user or admin")
	expiry := flag.Duration("expiry", 0, "token lifetime (defaults to JWT_EXPIRY)")
	flag.Parse()

	if *address == "" {
		log.Fatal("missing -address")
	}
	if *role != "user" && *role != "admin" {
		log.Fatalf("invalid role: %s (allowed: user, admin)", *role)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	lifetime := cfg.JWT.Expiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, lifetime)
	token, err := svc.GenerateToken(strings.ToLower(*address), *role)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println("Generated wallet token")
	fmt.Printf("ADDRESS=%s\n", strings.ToLower(*address))
	fmt.Printf("ROLE=%s\n", *role)
	fmt.Printf("EXPIRES=%s\n", time.Now().Add(lifetime).UTC().Format(time.RFC3339))
	fmt.Printf("TOKEN=%s\n", token)
}
