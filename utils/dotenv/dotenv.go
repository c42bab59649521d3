package dotenv

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnvs loads .env plus the environment specific override file
// (.env.<MOLONEWS_ENV>) when one exists. Missing files are not an error so
// that production can run on real environment variables alone.
func LoadDotEnvs() error {
	files := []string{".env"}
	if env := os.Getenv("MOLONEWS_ENV"); len(env) > 0 {
		files = append(files, ".env."+env)
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			return err
		}
	}
	return nil
}
