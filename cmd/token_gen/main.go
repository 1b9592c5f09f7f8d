package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("FLIGHTNOISE_CONFIG"), "path to YAML config file")
	subject := flag.String("sub", "ops", "token subject")
	scope := flag.String("scope", common.ScopeRead, "token scope (read or admin)")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to auth.token_ttl")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *ttl == 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	// Issue does not touch the cache.
	signer := common.NewTokenSignerService([]byte(cfg.Auth.JWTSecret), nil)
	token, tok, err := signer.Issue(*subject, *scope, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("Token ID:", tok.TokenID)
	fmt.Println("Expires: ", tok.ExpiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
