package device

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gnss-tools/hazer-go/internal/multiplex"
	"github.com/gnss-tools/hazer-go/internal/nmea"
	"github.com/gnss-tools/hazer-go/internal/port"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
	"github.com/gnss-tools/hazer-go/internal/ubx"
)

// SerialGNSSDevice implements GNSSDevice over a serial-attached GNSS
// receiver.
type SerialGNSSDevice struct {
	serialPort port.SerialPort
	connected  bool
	mutex      sync.Mutex
	stopChan   chan bool
}

// NewSerialGNSSDevice creates a SerialGNSSDevice over serialPort
func NewSerialGNSSDevice(serialPort port.SerialPort) *SerialGNSSDevice {
	return &SerialGNSSDevice{
		serialPort: serialPort,
		connected:  false,
		stopChan:   make(chan bool),
	}
}

// Connect establishes a connection to the device
func (d *SerialGNSSDevice) Connect(portName string, baudRate int) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.connected {
		return fmt.Errorf("device already connected")
	}

	// Use default baud rate if not specified
	if baudRate <= 0 {
		baudRate = 38400
	}

	// Open the port
	err := d.serialPort.Open(portName, baudRate)
	if err != nil {
		return fmt.Errorf("failed to connect to device: %w", err)
	}

	d.connected = true
	return nil
}

// Disconnect closes the connection to the device
func (d *SerialGNSSDevice) Disconnect() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.connected {
		return nil
	}

	err := d.serialPort.Close()
	if err != nil {
		return fmt.Errorf("error disconnecting device: %w", err)
	}

	d.connected = false
	return nil
}

// IsConnected returns whether the device is connected
func (d *SerialGNSSDevice) IsConnected() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.connected
}

// VerifyConnection checks if the device is sending valid GNSS data
func (d *SerialGNSSDevice) VerifyConnection(timeout time.Duration) bool {
	if !d.IsConnected() {
		return false
	}

	buffer := make([]byte, 1024)
	endTime := time.Now().Add(timeout)

	for time.Now().Before(endTime) {
		n, err := d.serialPort.Read(buffer)
		if err != nil {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if n > 0 {
			data := string(buffer[:n])
			// Check for NMEA sentences
			if strings.Contains(data, "$GN") || strings.Contains(data, "$GP") {
				return true
			}
		}

		time.Sleep(500 * time.Millisecond)
	}

	return false
}

// ReadRaw reads raw data from the device
func (d *SerialGNSSDevice) ReadRaw(buffer []byte) (int, error) {
	if !d.IsConnected() {
		return 0, fmt.Errorf("device not connected")
	}

	return d.serialPort.Read(buffer)
}

// WriteRaw writes raw data to the device
func (d *SerialGNSSDevice) WriteRaw(data []byte) (int, error) {
	if !d.IsConnected() {
		return 0, fmt.Errorf("device not connected")
	}

	return d.serialPort.Write(data)
}

// WriteCommand sends a command to the device
func (d *SerialGNSSDevice) WriteCommand(command string) error {
	if !d.IsConnected() {
		return fmt.Errorf("device not connected")
	}

	// Add newline if not present
	if !strings.HasSuffix(command, "\r\n") {
		command += "\r\n"
	}

	_, err := d.serialPort.Write([]byte(command))
	return err
}

// ChangeBaudRate always returns an error: the device does not record the
// name of the port it opened, so it cannot reopen it at baudRate. The port
// stays open at its current rate.
func (d *SerialGNSSDevice) ChangeBaudRate(baudRate int) error {
	if !d.IsConnected() {
		return fmt.Errorf("device not connected")
	}

	// Changing a GNSS receiver's baud rate generally requires sending a
	// device-specific configuration command first; callers that need
	// that should issue it via WriteCommand. This method does not send
	// any such command.

	// Close and reopen the port with the new baud rate
	portName, err := d.getCurrentPortName()
	if err != nil {
		return err
	}

	// Disconnect
	err = d.Disconnect()
	if err != nil {
		return err
	}

	// Reconnect with new baud rate
	return d.Connect(portName, baudRate)
}

// GetAvailablePorts returns a list of available serial ports
func (d *SerialGNSSDevice) GetAvailablePorts() ([]string, error) {
	return d.serialPort.ListPorts()
}

// GetPortDetails returns detailed information about available ports
func (d *SerialGNSSDevice) GetPortDetails() ([]PortDetail, error) {
	details, err := d.serialPort.GetPortDetails()
	if err != nil {
		return nil, err
	}

	var result []PortDetail
	for _, detail := range details {
		// Convert string VID/PID to uint16 if they are USB devices
		vid := uint16(0)
		pid := uint16(0)

		if detail.IsUSB {
			// Parse hexadecimal VID/PID strings to uint16
			if vidVal, err := parseHexToUint16(detail.VID); err == nil {
				vid = vidVal
			}

			if pidVal, err := parseHexToUint16(detail.PID); err == nil {
				pid = pidVal
			}
		}

		result = append(result, PortDetail{
			Name:    detail.Name,
			IsUSB:   detail.IsUSB,
			VID:     vid,
			PID:     pid,
			Product: detail.Product,
		})
	}

	return result, nil
}

// getCurrentPortName is a helper method to get the current port name
func (d *SerialGNSSDevice) getCurrentPortName() (string, error) {
	// This is a limitation of the current implementation
	// In a real application, you would need to store the port name when opening the port
	return "", fmt.Errorf("unable to determine current port name, please provide it explicitly")
}

// Monitor starts feeding bytes read from the device through the
// protocol multiplexer, dispatching each completed frame to
// config.Handler. It runs until StopMonitoring is called.
func (d *SerialGNSSDevice) Monitor(config MonitorConfig) error {
	if !d.IsConnected() {
		return fmt.Errorf("device not connected")
	}

	mux := multiplex.New(config.BufferSize, nil, nmea.New(), ubx.New(), rtcm.New())
	buffer := make([]byte, config.BufferSize)

	go func() {
		for {
			select {
			case <-d.stopChan:
				return
			default:
				n, err := d.serialPort.Read(buffer)
				if err != nil {
					time.Sleep(config.PollInterval)
					continue
				}

				for i := 0; i < n; i++ {
					event := mux.Feed(buffer[i])
					if event.Kind != multiplex.EventFrameReady || config.Handler == nil {
						continue
					}
					dispatchFrame(event, config.Handler)
				}

				time.Sleep(config.PollInterval)
			}
		}
	}()

	return nil
}

func dispatchFrame(event multiplex.Event, handler DataHandler) {
	switch event.Protocol {
	case "NMEA-0183":
		if _, err := nmea.Validate(event.Frame); err != nil {
			return
		}
		sentence, err := nmea.Tokenize(event.Frame)
		if err != nil {
			return
		}
		handler.HandleNMEA(sentence)
	case "UBX":
		handler.HandleUBX(event.Frame)
	case "RTCM10403":
		handler.HandleRTCM(event.Frame)
	}
}

// StopMonitoring stops all monitoring activities
func (d *SerialGNSSDevice) StopMonitoring() {
	d.stopChan <- true
}

// parseHexToUint16 converts a hexadecimal string to uint16
func parseHexToUint16(hexStr string) (uint16, error) {
	// Remove 0x prefix if present
	hexStr = strings.TrimPrefix(hexStr, "0x")

	// Parse the hex string
	val, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}
