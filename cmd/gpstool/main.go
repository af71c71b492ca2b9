// Command gpstool is an interactive serial-port monitor for GNSS
// receivers: it lists available ports, opens one, and prints each
// validated NMEA, UBX, and RTCM frame the multiplexer recognizes on the
// wire.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gnss-tools/hazer-go/internal/device"
	"github.com/gnss-tools/hazer-go/internal/nmea"
	"github.com/gnss-tools/hazer-go/internal/port"
	"github.com/gnss-tools/hazer-go/internal/position"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
	"github.com/gnss-tools/hazer-go/internal/ubx"
)

func main() {
	portName := flag.String("port", "", "serial port device (prompted for if omitted)")
	baud := flag.Int("baud", 38400, "baud rate")
	averageTo := flag.String("average", "", "accumulate GGA fixes and write the averaged position here on exit (disabled if empty)")
	minFixQuality := flag.Int("min-fix-quality", 1, "lowest GGA fix quality accepted into the average")
	flag.Parse()

	sp := port.NewGNSSSerialPort()
	dev := device.NewSerialGNSSDevice(sp)

	names, err := dev.GetAvailablePorts()
	if err != nil {
		log.Fatalf("listing serial ports: %v", err)
	}
	if len(names) == 0 {
		log.Fatal("no serial ports found")
	}

	name := *portName
	if name == "" {
		name = selectPort(names)
	}

	fmt.Printf("opening %s at %d baud...\n", name, *baud)
	if err := dev.Connect(name, *baud); err != nil {
		log.Fatalf("opening %s: %v", name, err)
	}
	defer dev.Disconnect()

	if err := sp.SetReadTimeout(500 * time.Millisecond); err != nil {
		log.Printf("warning: setting read timeout: %v", err)
	}

	var averager *position.PositionAverager
	if *averageTo != "" {
		averager = position.NewPositionAverager(*minFixQuality)
		defer saveAverage(averager, *averageTo)
	}

	handler := &reportingHandler{averager: averager}
	config := device.DefaultMonitorConfig(device.ProtocolNMEA, handler)
	if err := dev.Monitor(config); err != nil {
		log.Fatalf("starting monitor: %v", err)
	}
	defer dev.StopMonitoring()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\ngpstool: shutting down")
}

// saveAverage writes the averager's accumulated position estimate to path.
// If no average can be computed or the write fails, it logs the error and
// writes nothing.
func saveAverage(averager *position.PositionAverager, path string) {
	pos, stats, err := averager.GetAveragedPosition()
	if err != nil {
		log.Printf("average: %v", err)
		return
	}
	if err := position.SavePositionWithStats(pos, stats, path); err != nil {
		log.Printf("average: saving to %s: %v", path, err)
		return
	}
	fmt.Printf("averaged position (%d samples) written to %s\n", stats.SampleCount, path)
}

func selectPort(names []string) string {
	fmt.Println("available serial ports:")
	for i, n := range names {
		fmt.Printf("  %d: %s\n", i+1, n)
	}
	fmt.Print("select a port: ")

	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 1 || idx > len(names) {
		return names[0]
	}
	return names[idx-1]
}

// reportingHandler implements device.DataHandler, printing each frame the
// monitor's multiplexer lifts off the wire and, for GGA sentences,
// feeding a position sample into the optional averager.
type reportingHandler struct {
	averager *position.PositionAverager
}

func (h *reportingHandler) HandleNMEA(sentence nmea.Sentence) {
	fmt.Printf("[NMEA] %s %v\n", sentence.Name(), sentence.Fields)
	if sentence.Type == "GGA" {
		h.recordGGASample(sentence)
	}
}

func (h *reportingHandler) HandleUBX(frame []byte) {
	class, id := ubx.Class(frame), ubx.ID(frame)
	fmt.Printf("[UBX ] class=0x%02X id=0x%02X len=%d\n", class, id, len(ubx.Payload(frame)))

	if class == ubx.ClassNAV && id == ubx.IDNavPVT {
		pvt, err := ubx.DecodeNavPVT(ubx.Payload(frame))
		if err != nil {
			return
		}
		fmt.Printf("[NAV-PVT] fix=%d numSV=%d lon=%de-7deg lat=%de-7deg height=%dmm hMSL=%dmm gSpeed=%dmm/s\n",
			pvt.FixType, pvt.NumSV, pvt.LongitudeE7, pvt.LatitudeE7, pvt.HeightMillimeters, pvt.HMSLMillimeters, pvt.GSpeedMmPerSec)
	}
}

func (h *reportingHandler) HandleRTCM(frame []byte) {
	msgType := rtcm.MessageType(frame)
	fmt.Printf("[RTCM] type=%d %s (%d bytes)\n", msgType, rtcm.Name(msgType), len(frame))
}

// recordGGASample feeds a GGA fix into the averager, if one was
// requested, keeping it in the nanominute/millimeter domain
// representation nmea.ParseGGA produces rather than round-tripping
// through decimal degrees first.
func (h *reportingHandler) recordGGASample(sentence nmea.Sentence) {
	if h.averager == nil {
		return
	}
	pos, err := nmea.ParseGGA(sentence)
	if err != nil {
		return
	}
	h.averager.AddSample(position.SampleFromPosition(pos, time.Now().UTC()))
}
