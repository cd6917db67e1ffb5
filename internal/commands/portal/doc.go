// Package portalcmd exposes the portal interactions as go-command handlers.
package portalcmd
