package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Chatbot / retrieval credentials
	HFToken       string
	HFModel       string
	PineconeKey   string
	PineconeHost  string
	PineconeIndex string

	// Optional chat-context cache
	RedisAddr string

	// Email delivery: "console" logs outgoing mail, "smtp" relays it.
	EmailBackend string
	SMTPAddr     string
	SMTPFrom     string

	SyncBatchSize int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, relying on system env")
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "verdantshop.db"),
		LogFile:       getenv("LOG_FILE", "./verdantshop.log"),
		HFToken:       os.Getenv("HUGGINGFACE_API_TOKEN"),
		HFModel:       getenv("HF_MODEL", "Qwen/Qwen2-7B-Instruct"),
		PineconeKey:   os.Getenv("PINECONE_API_KEY"),
		PineconeHost:  os.Getenv("PINECONE_INDEX_HOST"),
		PineconeIndex: getenv("PINECONE_INDEX_NAME", "verdantshop-products"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		EmailBackend:  getenv("EMAIL_BACKEND", "console"),
		SMTPAddr:      getenv("SMTP_ADDR", "localhost:25"),
		SMTPFrom:      getenv("SMTP_FROM", "noreply@verdantshop.test"),
		SyncBatchSize: getint("SYNC_BATCH_SIZE", 50),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s EMAIL_BACKEND=%s INDEX=%s",
		cfg.Port, cfg.DBDSN, cfg.EmailBackend, cfg.PineconeIndex)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
