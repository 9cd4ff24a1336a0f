// Package service provides the application-level task operations. Services
// translate gateway requests into store calls, map store errors to service
// sentinels, and record domain metrics. They hold no state between calls.
package service
