package test

import (
	"os"
	"testing"
)

// SetTestEnvVariables fills in the configuration environment used by tests.
// Variables already set by the caller are left alone.
func SetTestEnvVariables(t testing.TB) {
	envVars := map[string]string{
		"SQLITEVFS_BACKEND":                   "object",
		"SQLITEVFS_DEBUG":                     "true",
		"SQLITEVFS_ENV":                       "test",
		"SQLITEVFS_FAKE_OBJECT_STORAGE":       "true",
		"SQLITEVFS_STORAGE_ACCESS_KEY_ID":     "sqlitevfs_test",
		"SQLITEVFS_STORAGE_BUCKET":            "sqlitevfs-test",
		"SQLITEVFS_STORAGE_ENDPOINT":          "http://s3.test:9000",
		"SQLITEVFS_STORAGE_PREFIX":            "test/",
		"SQLITEVFS_STORAGE_REGION":            "auto",
		"SQLITEVFS_STORAGE_SECRET_ACCESS_KEY": "sqlitevfs_test",
	}

	for key, value := range envVars {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}
}
