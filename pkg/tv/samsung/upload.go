package samsung

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net"

	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/cgddrd/samsung-frame-art/util/log"
	"github.com/google/uuid"
)

// uploadConnInfo is the socket the TV opens for the image bytes.
type uploadConnInfo struct {
	IP      string      `json:"ip"`
	Port    json.Number `json:"port"`
	Key     string      `json:"key"`
	Secured bool        `json:"secured"`
}

// uploadHeader precedes the raw image bytes on the upload socket.
type uploadHeader struct {
	Num        int    `json:"num"`
	Total      int    `json:"total"`
	FileLength int    `json:"fileLength"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	SecKey     string `json:"secKey"`
	Version    string `json:"version"`
}

// Upload sends image bytes to the TV's art store and returns the content id the
// TV assigned. The TV announces a one-shot socket for the transfer, the bytes go
// there, and the channel reports the stored image afterwards.
func (c *Client) Upload(ctx context.Context, data []byte, fileType tv.FileType, matte string) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	req := map[string]any{
		"request":   "send_image",
		"file_type": fileType.WireName(),
		"conn_info": map[string]any{
			"d2d_mode":      "socket",
			"connection_id": rand.Uint32(),
			"id":            id,
		},
		"image_date": c.now().Format(imageDateFmt),
		"matte_id":   matte,
		"file_size":  len(data),
	}
	if err := c.send(ctx, conn, id, req); err != nil {
		return "", err
	}

	ready, err := c.wait(ctx, conn, id, artEventReadyToUse)
	if err != nil {
		return "", fmt.Errorf("waiting for upload socket: %w", err)
	}

	var info uploadConnInfo
	if err := json.Unmarshal([]byte(ready.ConnInfo), &info); err != nil {
		return "", fmt.Errorf("decoding upload socket info: %w", err)
	}

	header := uploadHeader{
		Num:        0,
		Total:      1,
		FileLength: len(data),
		FileName:   uploadFileName,
		FileType:   fileType.WireName(),
		SecKey:     info.Key,
		Version:    uploadVersion,
	}
	if err := c.transfer(ctx, info, header, data); err != nil {
		return "", err
	}

	added, err := c.wait(ctx, conn, id, artEventImageAdded)
	if err != nil {
		return "", fmt.Errorf("waiting for image_added: %w", err)
	}
	if added.ContentID == "" {
		return "", fmt.Errorf("TV did not return a content id")
	}
	log.Debugf("TV stored image as %s", added.ContentID)
	return added.ContentID, nil
}

// transfer writes the length prefixed header and the image bytes to the upload socket.
func (c *Client) transfer(ctx context.Context, info uploadConnInfo, header uploadHeader, data []byte) error {
	addr := net.JoinHostPort(info.IP, info.Port.String())

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to upload socket %s: %w", addr, err)
	}
	conn := raw
	if info.Secured {
		conn = tls.Client(raw, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}
	defer conn.Close()

	if err := conn.SetDeadline(c.deadline(ctx)); err != nil {
		return err
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encoding upload header: %w", err)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(headerJSON)))

	for _, chunk := range [][]byte{prefix[:], headerJSON, data} {
		if _, err := conn.Write(chunk); err != nil {
			return fmt.Errorf("writing to upload socket: %w", err)
		}
	}
	return nil
}
