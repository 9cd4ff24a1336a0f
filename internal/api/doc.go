// Package api handles incoming HTTP requests for the task list, request
// validation, and response formatting. It acts as an adapter between HTTP
// clients and the task service.
package api
