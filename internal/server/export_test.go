package server

// Test helpers exposed to the external server_test package.
var (
	NewTestServer = newTestServer
	Post          = post
	SessionCookie = sessionCookie
)
