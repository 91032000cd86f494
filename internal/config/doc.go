// Package config loads the Basket Pulse configuration.
//
// Values are resolved in three layers, later layers winning:
//
//	1. Default() values
//	2. A YAML file (config.yaml or configs/config.yaml, or BASKET_CONFIG_FILE)
//	3. Environment variables with the BASKET_ prefix
//
// Environment variables follow the struct layout:
//
//	BASKET_SERVER_PORT=8080
//	BASKET_DATASET_DIR=/data/instacart
//	BASKET_ANALYSIS_ORGANIC_MARKER=Organic
//	BASKET_ANALYSIS_DAY_LABELS=Sun,M,Tue,W,T,F,Sat
//	BASKET_LOGGING_LEVEL=debug
//
// The merged result is checked with go-playground/validator struct tags
// before it is returned.
package config
