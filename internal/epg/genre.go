package epg

// genreNames are the ARIB STD-B10 content nibble level 1 names.
var genreNames = map[int]string{
	0x0: "News",
	0x1: "Sports",
	0x2: "Information",
	0x3: "Drama",
	0x4: "Music",
	0x5: "Variety",
	0x6: "Movie",
	0x7: "Anime",
	0x8: "Documentary",
	0x9: "Theater",
	0xA: "Hobby",
	0xB: "Welfare",
	0xF: "Other",
}

// GenreName returns the name of a level 1 genre, or "" if unknown.
func GenreName(lv1 int) string {
	return genreNames[lv1]
}
