// Package logger provides structured logging for the data protection
// library using zerolog.
//
// Loggers emit JSON by default and a colored console format for
// development. Every logger carries a service name, and named loggers
// from the registry add a component field. Log fields never carry key
// material or purpose strings.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("keyring")
//	log.Info("encryptor derived", logger.Fields(logger.FieldAlgorithm, "aes-256-gcm"))
package logger
