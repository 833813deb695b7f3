// Package models defines the client record, its database shapes and the
// response types of the clients feature.
package models
