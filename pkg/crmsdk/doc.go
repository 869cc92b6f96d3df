// Package crmsdk is a Go client for the CRM service HTTP API.
//
// A Client covers the unauthenticated surface (login, revoke, health); a
// Session, created by Client.Login, carries the issued tokens and covers the
// bearer-protected endpoints.
package crmsdk
