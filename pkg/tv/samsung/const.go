package samsung

import "time"

// Ports and paths of the Samsung Tizen remote control API.
const (
	RESTPort      = "8001"
	ArtPort       = "8002"
	RESTPath      = "/api/v2/"
	ArtAppChannel = "com.samsung.art-app"
)

// DefaultClientName is shown on the TV's "allow this device" prompt.
const DefaultClientName = "FrameArt"

// DefaultTimeout bounds every wait on the art channel when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// TokenService is the keyring service under which pairing tokens are stored.
const TokenService = "frameart"

// Websocket channel events.
const (
	eventChannelConnect = "ms.channel.connect"
	eventChannelReady   = "ms.channel.ready"
	eventD2DMessage     = "d2d_service_message"
	methodEmit          = "ms.channel.emit"
	eventArtAppRequest  = "art_app_request"
)

// Art app sub-events.
const (
	artEventError      = "error"
	artEventReadyToUse = "ready_to_use"
	artEventImageAdded = "image_added"
)

// uploadVersion and uploadFileName are fixed by the d2d upload socket protocol.
const (
	uploadVersion  = "0.0.1"
	uploadFileName = "dummy"
	imageDateFmt   = "2006:01:02 15:04:05"
)
