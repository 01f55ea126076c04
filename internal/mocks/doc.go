// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout
// the application, facilitating consistent testing across packages. Instead
// of defining inline mocks in individual test files, these standardized
// implementations can be reused.
//
// Each mock exposes function fields for overriding behavior per test, falls
// back to configurable default return values, and records calls for
// verification.
package mocks
