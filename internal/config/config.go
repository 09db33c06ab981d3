package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var Config *ServerConfig

// Store backends understood by repository.New.
const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// SessionCookieName is the name to use for the editor session cookie.
	SessionCookieName string `yaml:"sessionCookieName"`
	// SessionCookieExpiration is the amount of time a session cookie is valid.
	SessionCookieExpiration time.Duration `yaml:"sessionCookieExpiration"`
	// IsHTTPS marks the session cookie as Secure with SameSite=None.
	IsHTTPS bool `yaml:"isHTTPS"`
	// Port is the port the server should run on.
	Port int `yaml:"port"`

	// CoursesURL serves {"courses": [...]}.
	CoursesURL string `yaml:"coursesURL"`
	// TagsURL serves {"tags": [...]}.
	TagsURL string `yaml:"tagsURL"`
	// StudentsURL serves {"enrolledList": [{"name": ...}]}.
	StudentsURL string `yaml:"studentsURL"`
	// FetchTimeout bounds a single request to one of the remote endpoints. Zero disables it.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`

	Store StoreConfig `yaml:"store"`
}

// StoreConfig selects where the catalog snapshot and selected courses are kept.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite" or "firestore".
	Backend string `yaml:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `yaml:"sqlitePath"`
	// FirebaseCredentialsFile is the service account file used by the firestore backend.
	FirebaseCredentialsFile string `yaml:"firebaseCredentialsFile"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:          []string{"http://localhost:3000"},
		SessionCookieName:       "courseeditor-session",
		SessionCookieExpiration: time.Hour * 24 * 14,
		Port:                    8080,
		CoursesURL:              "https://raw.githubusercontent.com/thedevelopers-co-in/dummy-api/main/course.json",
		TagsURL:                 "https://raw.githubusercontent.com/thedevelopers-co-in/dummy-api/main/tags.json",
		StudentsURL:             "https://raw.githubusercontent.com/thedevelopers-co-in/dummy-api/main/students.json",
		FetchTimeout:            10 * time.Second,
		Store: StoreConfig{
			Backend:                 StoreMemory,
			SQLitePath:              "courseeditor.db",
			FirebaseCredentialsFile: "firebase-config.json",
		},
	}
}

// Load reads a YAML file and overlays it on top of the default configuration. Keys missing from
// the file keep their default values.
func Load(path string) (*ServerConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

func init() {
	log.Println("🙂️ No configuration provided. Using the default configuration.")
	Config = DefaultConfig()
}
