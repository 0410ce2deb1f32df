// Package services defines the shared error taxonomy for reenc
// components and maps classified failures to process exit codes.
package services
