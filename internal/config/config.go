package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tyler-smith/go-bip39"

	"github.com/zopentimestamps/zots/lib/proof"
)

// SeedEnvVar names the environment variable holding the BIP-39 seed
// phrase for the timestamping wallet. The phrase never goes into the
// config file.
const SeedEnvVar = "ZOTS_SEED"

// LoadConfig loads the configuration and sets default values
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	// Seed phrase and other secrets come from the environment; a local
	// .env file is honored when present.
	godotenv.Load()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create a default one
			return createDefaultConfig()
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	setDefaults()

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".zopentimestamps")

	viper.SetDefault("network", "testnet") // or "mainnet"
	viper.SetDefault("lightwalletd_url", "https://testnet.zec.rocks:443")
	viper.SetDefault("birthday_height", 3717528)
	viper.SetDefault("data_dir", dataDir)
	viper.SetDefault("walletd_socket", "/tmp/zots-walletd.sock")
	viper.SetDefault("db_path", filepath.Join(dataDir, "history.db"))
	viper.SetDefault("log_path", "zots.log")
	viper.SetDefault("hash_algorithm", "sha256")
	viper.SetDefault("confirmation_attempts", 10)
	viper.SetDefault("api_port", 9171)
	viper.SetDefault("wallet_api_key", "")
	viper.SetDefault("nostr_relays", []string{
		"wss://relay.damus.io",
		"wss://nos.lol",
	})
}

// createDefaultConfig creates a new configuration file if it doesn't exist
func createDefaultConfig() error {
	setDefaults()

	err := viper.SafeWriteConfig()
	if err != nil {
		if os.IsExist(err) {
			err = viper.WriteConfig()
			if err != nil {
				return fmt.Errorf("error writing config file: %w", err)
			}
		} else {
			return fmt.Errorf("error creating config file: %w", err)
		}
	}

	fmt.Println("Created default configuration file")
	return nil
}

// Network returns the configured Zcash network.
func Network() (proof.Network, error) {
	return proof.ParseNetwork(viper.GetString("network"))
}

// HashAlgorithm returns the configured default hash algorithm.
func HashAlgorithm() (proof.HashAlgorithm, error) {
	return proof.ParseHashAlgorithm(viper.GetString("hash_algorithm"))
}

// SeedPhrase reads and validates the wallet seed phrase from the
// environment.
func SeedPhrase() (string, error) {
	phrase := strings.TrimSpace(os.Getenv(SeedEnvVar))
	if phrase == "" {
		return "", fmt.Errorf("%s environment variable not set; set your 24-word seed phrase", SeedEnvVar)
	}
	if !bip39.IsMnemonicValid(phrase) {
		return "", fmt.Errorf("%s is not a valid BIP-39 mnemonic", SeedEnvVar)
	}
	return phrase, nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	dir := viper.GetString("data_dir")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}
