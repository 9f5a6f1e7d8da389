package constants

import (
	"os"
	"strconv"
)

func GetScoreDir() string {
	path := os.Getenv("SCORE_PATH")
	if path != "" {
		return path
	}
	return "./scores"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// GetReportStore is either "memory" or "dynamo".
func GetReportStore() string {
	store := os.Getenv("REPORT_STORE")
	if store != "" {
		return store
	}
	return "memory"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetDynamoRegion() string {
	region := os.Getenv("DYNAMO_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetReportTable() string {
	table := os.Getenv("REPORT_TABLE")
	if table != "" {
		return table
	}
	return "harmonycheck-reports"
}

func GetReportTTLMinutes() int {
	return getInt("REPORT_TTL_MINUTES", 60)
}

func GetMaxReports() int {
	return getInt("MAX_REPORTS", 1000)
}

// GetRuleConfigPath returns "" when no rule file is configured.
func GetRuleConfigPath() string {
	return os.Getenv("HARMONY_CONFIG")
}

func getInt(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

const MaxUploadSize = 10 * 1024 * 1024

// BatchConcurrency bounds the number of files analyzed at once.
const BatchConcurrency = 4
