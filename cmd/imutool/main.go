// Command imutool decodes a WitMotion Dally-variant IMU byte stream —
// read from a captured file or a live serial port — into one printed
// line per 20-byte frame: acceleration, angular velocity and Euler
// angles for data frames, register address and temperature for
// register-read frames.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gnss-tools/hazer-go/internal/port"
	"github.com/gnss-tools/hazer-go/internal/wt901"
)

func main() {
	path := flag.String("file", "", "captured stream file to decode (- for stdin)")
	portName := flag.String("port", "", "serial port to read from instead of -file")
	baud := flag.Int("baud", 115200, "baud rate when reading from -port")
	flag.Parse()

	var in interface{ Read([]byte) (int, error) }
	switch {
	case *portName != "":
		sp := port.NewGNSSSerialPort()
		if err := sp.Open(*portName, *baud); err != nil {
			log.Fatalf("imutool: opening %s: %v", *portName, err)
		}
		defer sp.Close()
		if err := sp.SetReadTimeout(500 * time.Millisecond); err != nil {
			log.Printf("imutool: warning: setting read timeout: %v", err)
		}
		in = sp
	case *path == "" || *path == "-":
		in = os.Stdin
	default:
		f, err := os.Open(*path)
		if err != nil {
			log.Fatalf("imutool: %v", err)
		}
		defer f.Close()
		in = f
	}

	var frameCount, dataCount, registerCount int
	window := make([]byte, 0, wt901.Length*2)
	buf := make([]byte, 1024)
	for {
		n, err := in.Read(buf)
		window = append(window, buf[:n]...)

		for {
			// Drop leading bytes until a sync byte starts the window, so a
			// corrupt or mid-stream start resyncs rather than stalling.
			for len(window) > 0 && window[0] != wt901.Sync {
				window = window[1:]
			}
			if len(window) < wt901.Length {
				break
			}

			frame, decodeErr := wt901.Decode(window[:wt901.Length])
			if decodeErr != nil {
				window = window[1:]
				continue
			}

			frameCount++
			switch frame.Flag {
			case wt901.FlagData:
				dataCount++
				accel := frame.Acceleration()
				gyro := frame.AngularVelocity()
				angles := frame.Angles()
				fmt.Printf("[DATA] accel=(%.3f,%.3f,%.3f)g gyro=(%.2f,%.2f,%.2f)deg/s angles=(%.2f,%.2f,%.2f)deg\n",
					accel[0], accel[1], accel[2], gyro[0], gyro[1], gyro[2], angles[0], angles[1], angles[2])
			case wt901.FlagRegister:
				registerCount++
				fmt.Printf("[REG ] register=0x%04X temperature=%.2fC\n", frame.RegisterAddress(), frame.TemperatureCelsius())
			}
			window = window[wt901.Length:]
		}

		if err != nil {
			break
		}
	}

	fmt.Printf("\nsummary: frames=%d data=%d register=%d\n", frameCount, dataCount, registerCount)
}
