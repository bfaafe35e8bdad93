package common

import (
	"flag"
	"fmt"
	"os"
	"time"
)

var Version = "v0.1.0"
var StartTime = time.Now().Unix()

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
)

var (
	SQLitePath = "data/bookhole.db"
	JWTSecret  = ""
)

var ItemsPerPage = 10

// DriveConfig carries the Google OAuth application settings. It is built
// once at startup and passed into the drive service so tests can substitute
// their own endpoints and credentials.
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	FolderName   string
}

// StoreConfig carries the S3-compatible object store settings for the
// book mirror bucket.
type StoreConfig struct {
	Region        string
	Endpoint      string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func PrintHelp() {
	fmt.Println("BookHole " + Version)
	fmt.Println("Usage: bookhole [--port <port>] [--version] [--help]")
}

func InitConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if p := os.Getenv("SQLITE_PATH"); p != "" {
		SQLitePath = p
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		JWTSecret = s
	}
	return nil
}

// LoadDriveConfig reads the Google OAuth settings from the environment.
func LoadDriveConfig() DriveConfig {
	folder := os.Getenv("DRIVE_FOLDER_NAME")
	if folder == "" {
		folder = "Seen Books"
	}
	return DriveConfig{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("REDIRECT_URI"),
		FolderName:   folder,
	}
}

// LoadStoreConfig reads the object store settings from the environment.
// PublicBaseURL is the prefix public object URLs are built from; when unset
// it falls back to "<endpoint>/<bucket>".
func LoadStoreConfig() StoreConfig {
	cfg := StoreConfig{
		Region:        os.Getenv("S3_REGION"),
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		Bucket:        os.Getenv("S3_BUCKET"),
		AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("S3_SECRET_KEY"),
		PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "books"
	}
	return cfg
}
