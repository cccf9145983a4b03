// Package proxytest contains tests of HTTP proxy behavior.
//
// The tests in this package must be run one at a time in separate "go test" invocations, because
// (depending on the platform) Go may cache the value of HTTP_PROXY. Therefore, there is a separate build
// tag for each test that uses the environment.
package proxytest
