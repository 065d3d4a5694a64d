package domain

const (
	DefaultUploadURL                  = "http://127.0.0.1:36677/upload"
	DefaultHeartbeatURL               = "http://127.0.0.1:36677/heartbeat"
	DefaultLogLevel                   = "info"
	DefaultObservabilityListenAddress = ""
	DefaultProbeOnStart               = true
)

const (
	ServerName        = "picgo-uploader"
	ServerDescription = "MCP server to upload images via PicGo"

	UploadToolName        = "upload_image_via_picgo"
	UploadToolDescription = "Uploads one or more images using the running PicGo server application."
	ImagePathsField       = "image_paths"
	ImagePathsDescription = "An array of absolute paths to the image files to upload."

	// PicGoListField is the request body key PicGo's server reads the paths from.
	PicGoListField = "list"
)
