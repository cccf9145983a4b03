// Package interfaces contains types and interfaces that allow customization of pagebeacon
// components.
//
// You will not need to refer to these types in your code unless you are creating a custom
// transport, or observing transport status with Client.GetTransportStatusProvider.
package interfaces
