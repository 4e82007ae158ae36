package snapshot

// Wire shapes served by the snapshot endpoint. Optional fields carry
// omitempty so the document never contains explicit nulls; list fields
// are always initialised so they serialize as arrays.

type Snapshot struct {
	GeneratedAt string  `json:"generated_at"`
	Guilds      []Guild `json:"guilds"`
}

type Guild struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	IconUrl     string   `json:"icon_url,omitempty"`
	MemberCount int      `json:"member_count"`
	Members     []Member `json:"members"`
}

type Member struct {
	Id            string     `json:"id"`
	Name          string     `json:"name"`
	Discriminator string     `json:"discriminator"`
	GlobalName    string     `json:"global_name,omitempty"`
	DisplayName   string     `json:"display_name"`
	Nick          string     `json:"nick,omitempty"`
	AvatarUrl     string     `json:"avatar_url,omitempty"`
	BannerUrl     string     `json:"banner_url,omitempty"`
	AccentColor   int        `json:"accent_color,omitempty"`
	Badges        []string   `json:"badges"`
	Status        string     `json:"status"`
	Activities    []Activity `json:"activities"`
	JoinedAt      string     `json:"joined_at,omitempty"`
	Roles         []Role     `json:"roles"`
}

// Role carried by a member. The everyone role is never included,
// and the default color (0) is omitted
type Role struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Color    int    `json:"color,omitempty"`
	Position int    `json:"position"`
}

// Activity is the tagged union over the possible presence activities.
// Type is one of playing, streaming, listening, watching, competing
// or custom; the remaining fields are populated depending on the type
type Activity struct {
	Type       string      `json:"type"`
	Name       string      `json:"name,omitempty"`
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Assets     *Assets     `json:"assets,omitempty"`
	Party      *Party      `json:"party,omitempty"`

	// custom status
	Emoji *Emoji `json:"emoji,omitempty"`

	// streaming
	Platform string `json:"platform,omitempty"`
	Url      string `json:"url,omitempty"`

	// music listening
	Title         string   `json:"title,omitempty"`
	Artists       []string `json:"artists,omitempty"`
	Album         string   `json:"album,omitempty"`
	AlbumCoverUrl string   `json:"album_cover_url,omitempty"`
	TrackId       string   `json:"track_id,omitempty"`
	Duration      float64  `json:"duration,omitempty"`
}

type Timestamps struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type Assets struct {
	LargeImageUrl  string `json:"large_image_url,omitempty"`
	LargeImageText string `json:"large_image_text,omitempty"`
	SmallImageUrl  string `json:"small_image_url,omitempty"`
	SmallImageText string `json:"small_image_text,omitempty"`
}

type Party struct {
	Id   string `json:"id,omitempty"`
	Size []int  `json:"size,omitempty"`
}

// Emoji attached to a custom status. A unicode emoji only carries
// a name; a guild emoji also carries its id and CDN url
type Emoji struct {
	Name string `json:"name"`
	Url  string `json:"url,omitempty"`
	Id   string `json:"id,omitempty"`
}
