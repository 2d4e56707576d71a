// Package validator provides a small validation abstraction for inbound
// payloads such as MQ trigger messages and HTTP bodies.
//
// Business code depends on the Validator interface; V10Validator backs it with
// go-playground/validator v10 and English messages keyed by snake_case field.
package validator
