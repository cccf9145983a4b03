// Package pbfileconfig reads client settings from a YAML or JSON file.
//
// The file is a single object whose properties are all optional; see Settings for the property names.
// For example:
//
//	profile: development
//	collector: http://localhost:5050
//	delivery:
//	  connectTimeout: 2s
//	  pulseInterval: 30s
//
// The result of LoadConfig can be passed to pagebeacon.MakeCustomClient.
package pbfileconfig
