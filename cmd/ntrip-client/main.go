package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gnss-tools/hazer-go/internal/multiplex"
	"github.com/gnss-tools/hazer-go/internal/ntrip"
	"github.com/gnss-tools/hazer-go/internal/ntripclient"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
)

func main() {
	// Parse command line flags
	address := flag.String("address", "", "NTRIP server address (e.g., 192.168.0.64)")
	port := flag.String("port", "2101", "NTRIP server port")
	username := flag.String("user", "", "Username for NTRIP server")
	password := flag.String("pass", "", "Password for NTRIP server")
	mountpoint := flag.String("mount", "", "Mountpoint name")
	outputFile := flag.String("output", "", "Output file path (default: base_position.json in the executable's directory)")
	timeout := flag.Duration("timeout", 60*time.Second, "Timeout for connection")
	transport := flag.String("transport", "http", "caster transport: \"http\" (plain NTRIP-over-HTTP client) or \"gnssgo\" (gnssgo.Stream-based client)")
	flag.Parse()

	// Check required parameters
	if *address == "" {
		fmt.Println("Error: NTRIP server address is required")
		flag.Usage()
		os.Exit(1)
	}

	if *mountpoint == "" {
		fmt.Println("Error: Mountpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	// Set default output file if not specified
	if *outputFile == "" {
		execPath, err := os.Executable()
		if err != nil {
			execPath = "."
		}
		*outputFile = filepath.Join(filepath.Dir(execPath), "base_position.json")
	}

	// Create context with timeout and cancellation
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived shutdown signal")
		cancel()
	}()

	// Connect to NTRIP server, over whichever transport was selected.
	var stream io.ReadCloser
	switch *transport {
	case "gnssgo":
		cfg := ntripclient.Config{
			Server:     *address,
			Port:       *port,
			Username:   *username,
			Password:   *password,
			Mountpoint: *mountpoint,
		}
		gc := ntripclient.New(cfg)
		fmt.Printf("Connecting to NTRIP server at %s:%s/%s (gnssgo transport)...\n", *address, *port, *mountpoint)
		if err := gc.Connect(); err != nil {
			fmt.Printf("Error connecting to NTRIP server: %v\n", err)
			os.Exit(1)
		}
		stream = gnssgoStream{gc}
	default:
		url := fmt.Sprintf("http://%s:%s", *address, *port)
		client := ntrip.NewClient(url, *username, *password, *mountpoint)
		fmt.Printf("Connecting to NTRIP server at %s (http transport)...\n", url)
		s, err := client.Connect(ctx)
		if err != nil {
			fmt.Printf("Error connecting to NTRIP server: %v\n", err)
			os.Exit(1)
		}
		stream = s
	}
	defer stream.Close()

	fmt.Println("Connected to NTRIP server.")
	fmt.Println("Waiting for position data...")

	// Read RTCM data, framing it through the real RTCM10403 state machine
	// so each displayed message has passed CRC-24Q (spec.md §4.2).
	mux := multiplex.New(0, nil, rtcm.New())
	buffer := make([]byte, 1024)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("Timeout or cancellation")
			return
		default:
			n, err := stream.Read(buffer)
			if err != nil {
				fmt.Printf("Error reading from NTRIP stream: %v\n", err)
				return
			}
			for i := 0; i < n; i++ {
				event := mux.Feed(buffer[i])
				if event.Kind != multiplex.EventFrameReady {
					continue
				}
				msgType := rtcm.MessageType(event.Frame)
				fmt.Printf("RTCM message %d: %s (%d bytes)\n", msgType, rtcm.Name(msgType), len(event.Frame))

				if arp, ok := rtcm.DecodeStationARP(event.Frame); ok {
					if err := saveStationARP(arp, *outputFile); err != nil {
						fmt.Printf("error saving station ARP: %v\n", err)
					} else {
						fmt.Printf("saved base station ARP to %s\n", *outputFile)
					}
				}
			}
		}
	}
}

// gnssgoStream adapts ntripclient.Client (Read + Disconnect) to
// io.ReadCloser so it can stand in for the http transport's stream.
type gnssgoStream struct {
	client *ntripclient.Client
}

func (g gnssgoStream) Read(p []byte) (int, error) { return g.client.Read(p) }
func (g gnssgoStream) Close() error               { return g.client.Disconnect() }

// saveStationARP persists the base station's ECEF reference coordinates,
// decoded from an RTCM 1005/1006 message, to filePath as JSON.
func saveStationARP(arp rtcm.StationARP, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %v", err)
	}

	data, err := json.MarshalIndent(arp, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling to JSON: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing to file: %v", err)
	}

	return nil
}
