// Package utils provides common utility functions for the migration reconciler.
// It includes helper functions for type conversion of loosely typed database
// cells and other shared logic that doesn't fit into domain-specific packages.
package utils
