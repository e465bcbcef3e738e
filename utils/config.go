package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

// Configurazione del server
type ServerConfig struct {
	Port int `json:"port"`
}

// Configurazione dello storage
type StorageConfig struct {
	DatabasePath     string `json:"databasePath"`
	MaxArchiveSizeMB int    `json:"maxArchiveSizeMb"`
}

// Configurazione completa
type Config struct {
	Server  ServerConfig  `json:"server"`
	Storage StorageConfig `json:"storage"`
}

// DefaultConfig restituisce la configurazione predefinita, usata quando il
// file di configurazione non è disponibile
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Storage: StorageConfig{
			DatabasePath:     "archives.db",
			MaxArchiveSizeMB: 512,
		},
	}
}

// Carica la configurazione dal file
func LoadConfig(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("errore nell'apertura del file di configurazione: %v", err)
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("errore nella decodifica del file di configurazione: %v", err)
	}

	return config, nil
}

// MaxArchiveBytes restituisce la dimensione massima di upload in byte
func (c *Config) MaxArchiveBytes() int64 {
	return int64(c.Storage.MaxArchiveSizeMB) << 20
}
