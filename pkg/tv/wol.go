package tv

import (
	"bytes"
	"context"
	"fmt"
	"net"
)

// DefaultBroadcast is where magic packets are sent unless told otherwise.
const DefaultBroadcast = "255.255.255.255:9"

// MagicPacket builds a wake-on-LAN frame: 6 bytes of 0xFF followed by the MAC 16 times.
func MagicPacket(mac net.HardwareAddr) ([]byte, error) {
	if len(mac) != 6 {
		return nil, fmt.Errorf("wake-on-LAN needs a 6 byte MAC, got %d bytes", len(mac))
	}
	packet := make([]byte, 0, 6+16*6)
	packet = append(packet, bytes.Repeat([]byte{0xFF}, 6)...)
	for range 16 {
		packet = append(packet, mac...)
	}
	return packet, nil
}

// WakeOnLAN broadcasts a magic packet for mac to addr over UDP.
// Delivery is not confirmed; the TV gives no answer.
func WakeOnLAN(ctx context.Context, mac net.HardwareAddr, addr string) error {
	packet, err := MagicPacket(mac)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = DefaultBroadcast
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp4", addr)
	if err != nil {
		return fmt.Errorf("opening wake-on-LAN socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(packet); err != nil {
		return fmt.Errorf("sending magic packet to %s: %w", addr, err)
	}
	return nil
}
