// Package config loads the YAML configuration shared by the formguard
// commands.
//
// A minimal file looks like:
//
//	logging:
//	  level: debug
//	  format: json
//	validation:
//	  debounce: 150ms
//	metrics:
//	  address: 127.0.0.1:9090
//	messages:
//	  file: messages.yaml
//
// Missing fields take the defaults from ApplyDefaults. FORMGUARD_LOG_LEVEL,
// FORMGUARD_LOG_FORMAT, FORMGUARD_DEBOUNCE and FORMGUARD_METRICS_ADDRESS
// override the file.
package config
