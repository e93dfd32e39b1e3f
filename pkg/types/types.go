package types

type PublishPlatform string

const (
	PublishPlatformYouTube   PublishPlatform = "youtube"
	PublishPlatformInstagram PublishPlatform = "instagram"
	PublishPlatformTikTok    PublishPlatform = "tiktok"
)
