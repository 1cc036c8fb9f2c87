// Package utils provides common utility functions for the verifier.
// It includes helper functions for type conversion of loosely typed values
// read from the legacy sqlite store.
package utils
