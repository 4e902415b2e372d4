package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	BIND_ADDRESS  = "0.0.0.0:8000"
	TLS_DOMAINS   = ""   // e.g. "example.com,example2.com"
	DEBUG_MODE    = true // also disables gzip and enables error body logging
	MYSQL_DSN     = ""   // MySQL will be used if this is set
	POSTGRES_DSN  = ""   // PostgreSQL will be used if MYSQL_DSN is not configured and this is set
	SQLITE_FILE   = "yatube.sqlite3"
	TEMPLATES_DIR = "templates"
	STATIC_DIR    = "static"
	SITE_URL      = "http://localhost:8000" // used for absolute links in emails

	SESSION_KEY     = "change me, this is not a secret"
	SESSION_MAX_AGE = 14 * 86400

	POSTS_PER_PAGE      = 10
	INDEX_CACHE_SECONDS = 20
	REDIS_URL           = "" // in-memory page cache is used when empty

	MEDIA_DIR   = "media" // disk storage root, ignored when S3_BUCKET is set
	S3_BUCKET   = ""
	S3_REGION   = "us-east-1"
	S3_PREFIX   = ""
	S3_ENDPOINT = "" // for S3 compatible services
	S3_KEY      = ""
	S3_SECRET   = ""

	THUMB_SIZE          = 960
	PROCESSING_INTERVAL = 30 // seconds between scans when there is nothing to process

	MAIL_FROM        = "noreply@yatube.local"
	MAIL_DIR         = "sent_emails" // file based sender drops messages here
	SENDGRID_API_KEY = ""            // SendGrid will be used if this is set

	CORS_ORIGINS = "" // comma separated, CORS is off when empty
)

func init() {
	readAll()
}

// Load reads an optional .env file and an optional config file (any format
// viper understands) and then re-reads all variables. Real environment
// variables always win over both files.
func Load(configFile string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		for _, key := range v.AllKeys() {
			name := strings.ToUpper(key)
			if _, ok := os.LookupEnv(name); ok {
				continue
			}
			if err := os.Setenv(name, v.GetString(key)); err != nil {
				return err
			}
		}
	}
	readAll()
	return nil
}

func readAll() {
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("TEMPLATES_DIR", &TEMPLATES_DIR)
	readEnvString("STATIC_DIR", &STATIC_DIR)
	readEnvString("SITE_URL", &SITE_URL)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("SESSION_MAX_AGE", &SESSION_MAX_AGE)
	readEnvInt("POSTS_PER_PAGE", &POSTS_PER_PAGE)
	readEnvInt("INDEX_CACHE_SECONDS", &INDEX_CACHE_SECONDS)
	readEnvString("REDIS_URL", &REDIS_URL)
	readEnvString("MEDIA_DIR", &MEDIA_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvInt("PROCESSING_INTERVAL", &PROCESSING_INTERVAL)
	readEnvString("MAIL_FROM", &MAIL_FROM)
	readEnvString("MAIL_DIR", &MAIL_DIR)
	readEnvString("SENDGRID_API_KEY", &SENDGRID_API_KEY)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)

	if POSTS_PER_PAGE <= 0 {
		POSTS_PER_PAGE = 10
	}
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = i
}
