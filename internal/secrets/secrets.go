// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the evidence-service API token and related
// credentials. Credentials live in a directory of plain-text files: the
// filename is the key name and the file contents (trimmed) are the
// value. The environment and a local .env file take precedence over key
// files.
//
// Supported key files: mastermind-api-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// TokenFile is the key file holding the evidence-service API token.
const TokenFile = "mastermind-api-token"

// TokenEnv is the environment variable overriding every other token
// source.
const TokenEnv = "MASTERMIND_API_TOKEN"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Token resolves the API token: the environment variable first, then a
// .env file in the working directory, then the token key file in dir.
func Token(dir string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(TokenEnv)); v != "" {
		return v, nil
	}
	if env, err := godotenv.Read(); err == nil {
		if v := strings.TrimSpace(env[TokenEnv]); v != "" {
			return v, nil
		}
	}

	loaded, err := Load(dir)
	if err != nil {
		return "", err
	}
	if v := loaded[TokenFile]; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no API token found: set %s or create %s", TokenEnv, filepath.Join(dir, TokenFile))
}
