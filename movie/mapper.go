package movie

// PosterURL joins the public base URL with the file route and the stored name.
func PosterURL(baseURL, poster string) string {
	return baseURL + "/file/" + poster
}

// ToView builds the caller-facing movie. The stored file name only
// appears inside PosterURL.
func ToView(r Record, baseURL string) Movie {
	return Movie{
		ID:          r.ID,
		Title:       r.Title,
		Director:    r.Director,
		Studio:      r.Studio,
		Cast:        uniqueCast(r.Cast),
		ReleaseYear: r.ReleaseYear,
		PosterURL:   PosterURL(baseURL, r.Poster),
	}
}

// ToViews maps records in order. The result is never nil.
func ToViews(records []Record, baseURL string) []Movie {
	movies := make([]Movie, len(records))
	for i, r := range records {
		movies[i] = ToView(r, baseURL)
	}
	return movies
}

// ToRecord copies in into a record without an id.
func ToRecord(in Input, poster string) Record {
	return Record{
		Title:       in.Title,
		Director:    in.Director,
		Studio:      in.Studio,
		Cast:        uniqueCast(in.Cast),
		ReleaseYear: in.ReleaseYear,
		Poster:      poster,
	}
}

// uniqueCast drops repeated members, keeping first-seen order.
func uniqueCast(cast []string) []string {
	if cast == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(cast))
	out := make([]string, 0, len(cast))
	for _, member := range cast {
		if _, ok := seen[member]; ok {
			continue
		}
		seen[member] = struct{}{}
		out = append(out, member)
	}
	return out
}
