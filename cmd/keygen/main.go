package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veyra-id/veyra/internal/config"
)

// keygen writes a fresh RSA key pair to the paths the token signer reads
// at startup (JWT_PRIVATE_KEY_PATH / JWT_PUBLIC_KEY_PATH). Intended for
// local development and first-time deployment bootstrap, not rotation
// under load.
func main() {
	cfg := config.Load()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
		os.Exit(1)
	}

	privBytes := x509.MarshalPKCS1PrivateKey(privateKey)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privBytes})

	pubBytes := x509.MarshalPKCS1PublicKey(&privateKey.PublicKey)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: pubBytes})

	if err := writeKeyFile(cfg.JWTPrivateKeyPath, privPEM); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write private key: %v\n", err)
		os.Exit(1)
	}
	if err := writeKeyFile(cfg.JWTPublicKeyPath, pubPEM); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write public key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s and %s\n", cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath)
}

func writeKeyFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}
