// Package config provides configuration management for cade-report.
// It loads settings from multiple sources, validates them and resolves the
// output artifact paths of a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Command line flags (highest priority, applied by cmd/cade-report)
//  2. Environment variables
//  3. YAML configuration file
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CADE_<SECTION>_<KEY>:
//
//	CADE_INPUT_FILE=decisoes.csv
//	CADE_INPUT_ENCODING=latin1
//	CADE_OUTPUT_DIR=out
//	CADE_ANALYSIS_DOCUMENT_TYPES="Voto,Voto Processo Administrativo"
//	CADE_LOGGING_LEVEL=debug
//	CADE_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/cade.prom
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	cfg.Input.File = "decisoes.csv"
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	paths := cfg.ResolvePaths()
package config
