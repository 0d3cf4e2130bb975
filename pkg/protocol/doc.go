// ABOUTME: STS bridge wire protocol package
// ABOUTME: Defines JSON payloads and a client for the bridge server
// Package protocol implements the STS bridge wire protocol.
//
// Provides the JSON payload types and a client that uploads audio
// over HTTP or WebSocket.
//
// Example:
//
//	client := protocol.NewClient(protocol.Config{ServerAddr: "localhost:5000"})
//	resp, err := client.Upload(ctx, wavBytes)
//	wav, err := resp.WAV()
package protocol
