// Package mocks contains test implementations of client components.
package mocks
