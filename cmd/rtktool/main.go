// Command rtktool is the RTK correction relay: it listens on a UDP
// socket, classifies each sender as a base (RTCM corrections) or a rover
// (RTCM keepalives) by frame length, and forwards verbatim base
// corrections to every live rover (spec.md §4.8).
package main

import (
	"flag"
	"log"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnss-tools/hazer-go/internal/rtkrouter"
)

func main() {
	addr := flag.String("listen", ":5019", "UDP address to listen on")
	timeout := flag.Duration("timeout", 30*time.Second, "client liveness timeout")
	sweep := flag.Duration("sweep", 5*time.Second, "liveness sweep interval")
	flag.Parse()

	conn, err := net.ListenPacket("udp", *addr)
	if err != nil {
		log.Fatalf("rtktool: listen %s: %v", *addr, err)
	}
	defer conn.Close()
	log.Printf("rtktool: listening on %s", *addr)

	udpConn, ok := conn.(*net.UDPConn)
	if !ok {
		log.Fatal("rtktool: expected a UDP connection")
	}

	router := rtkrouter.New(*timeout, time.Now, func(to netip.AddrPort, datagram []byte) error {
		_, err := udpConn.WriteToUDPAddrPort(datagram, to)
		return err
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sweepTicker := time.NewTicker(*sweep)
	defer sweepTicker.Stop()
	go func() {
		for range sweepTicker.C {
			router.Sweep()
		}
	}()

	go func() {
		<-sigCh
		log.Println("rtktool: shutting down")
		conn.Close()
		os.Exit(0)
	}()

	buf := make([]byte, 2048)
	for {
		n, from, err := udpConn.ReadFromUDPAddrPort(buf)
		if err != nil {
			log.Printf("rtktool: read: %v", err)
			continue
		}
		if err := router.HandleDatagram(from, buf[:n]); err != nil {
			log.Printf("rtktool: rejected datagram from %s: %v", from, err)
		}
	}
}
