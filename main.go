// ABOUTME: Entry point for the STS bridge client
// ABOUTME: Finds a bridge, uploads a recording and saves or plays the spoken reply
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/sts-bridge/internal/discovery"
	"github.com/harperreed/sts-bridge/pkg/audio/decode"
	"github.com/harperreed/sts-bridge/pkg/audio/output"
	"github.com/harperreed/sts-bridge/pkg/protocol"
)

var (
	serverAddr = flag.String("server", "", "Manual server address host:port (skip mDNS)")
	inFile     = flag.String("in", "", "Audio file to upload (WAV, MP3, FLAC or Ogg Opus)")
	outFile    = flag.String("out", "reply.wav", "Where to write the reply WAV (empty to skip)")
	useWS      = flag.Bool("ws", false, "Upload over WebSocket instead of HTTP")
	play       = flag.Bool("play", false, "Play the reply")
	volume     = flag.Int("volume", 100, "Playback volume (0-100)")
	timeout    = flag.Duration("timeout", 2*time.Minute, "Overall request timeout")
	logFile    = flag.String("log-file", "sts-bridge-client.log", "Log file path")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	if *inFile == "" {
		log.Fatalf("-in is required")
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *inFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	address := *serverAddr
	if address == "" {
		address = discoverServer()
	}

	client := protocol.NewClient(protocol.Config{ServerAddr: address, Debug: *debug})

	desc, err := client.Describe(ctx)
	if err != nil {
		log.Fatalf("Server at %s is not reachable: %v", address, err)
	}
	log.Printf("Connected to %s: %s", address, desc.Message)

	start := time.Now()
	var resp *protocol.UploadResponse
	if *useWS {
		resp, err = client.UploadWS(ctx, data)
	} else {
		resp, err = client.Upload(ctx, data)
	}
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}

	reply, err := resp.WAV()
	if err != nil {
		log.Fatalf("Invalid reply: %v", err)
	}
	log.Printf("Received %d bytes of %s in %v", len(reply), resp.MIME, time.Since(start).Round(time.Millisecond))

	if *outFile != "" {
		if err := os.WriteFile(*outFile, reply, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", *outFile, err)
		}
		log.Printf("Reply saved to %s", *outFile)
	}

	if *play {
		if err := playReply(reply); err != nil {
			log.Fatalf("Playback failed: %v", err)
		}
	}
}

// discoverServer browses mDNS for a bridge and returns its address
func discoverServer() string {
	log.Printf("Starting server discovery...")
	disc := discovery.NewManager(discovery.Config{})
	defer disc.Stop()
	disc.Browse()

	select {
	case server := <-disc.Servers():
		log.Printf("Discovered server %s at %s", server.Name, server.Addr())
		return server.Addr()
	case <-time.After(10 * time.Second):
		log.Fatalf("No server found after 10 seconds")
	}
	return ""
}

// playReply decodes the reply WAV and plays it to completion
func playReply(reply []byte) error {
	buf, err := decode.NewWAV().Decode(reply)
	if err != nil {
		return err
	}

	out := output.NewOto()
	defer out.Close()

	if v, ok := out.(*output.Oto); ok {
		v.SetVolume(*volume)
	}

	log.Printf("Playing %v of audio (%d Hz)", buf.Duration().Round(time.Millisecond), buf.Format.SampleRate)
	return output.Play(out, buf)
}
