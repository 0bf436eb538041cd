package notification

import (
	"fmt"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
)

// content is the display part of a notification.
type content struct {
	Title string
	Body  string
}

func newTrackContent(artist, title string) content {
	return content{"New Song 🎵", fmt.Sprintf("%s has released a new song, %s, Listen now!", artist, title)}
}

func newAlbumContent(artist, title string) content {
	return content{"New Album 💿", fmt.Sprintf("%s has released a new album, %s, Listen now!", artist, title)}
}

func newPlaylistContent(creator, title string) content {
	return content{"New Playlist 🎶", fmt.Sprintf("%s has created a new playlist, %s", creator, title)}
}

func likeTrackContent(liker, track string) content {
	return content{"New Like ❤️", fmt.Sprintf("%s liked your song, %s", liker, track)}
}

func followContent(follower string, followers int) content {
	return content{"New Follower 👤", fmt.Sprintf("%s started following you. You now have %d followers", follower, followers)}
}

func downloadTrackContent(user, track string) content {
	return content{"New Download ⬇️", fmt.Sprintf("%s downloaded your song, %s", user, track)}
}

func savePlaylistContent(user, playlist string) content {
	return content{"New Save 💾", fmt.Sprintf("%s saved your playlist, %s", user, playlist)}
}

func saveAlbumContent(user, album string) content {
	return content{"New Save 💾", fmt.Sprintf("%s saved your album, %s", user, album)}
}

func trackApprovedContent(track string) content {
	return content{"Track Approved ✅", fmt.Sprintf("Your song, %s, is now public", track)}
}

// pushData is the routing block clients receive with every push.
func pushData(t notification.NotificationType, triggerUserID, destinationID *string) map[string]string {
	data := map[string]string{"type": string(t)}
	if triggerUserID != nil {
		data["triggerUserId"] = *triggerUserID
	}
	if destinationID != nil {
		data["destinationId"] = *destinationID
	}
	return data
}
