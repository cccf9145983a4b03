// Package pbcomponents provides the standard implementations and configuration builders for the
// client's components.
//
// Each builder is stored in a field of pagebeacon.Config. Any field left unset uses the default
// behavior described for that builder.
package pbcomponents
