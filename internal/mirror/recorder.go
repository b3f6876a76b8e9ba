package mirror

// Upload is one call observed by a Recorder.
type Upload struct {
	Name   string
	Count  int
	Stride int
	Size   int
}

// Recorder is an Uploader that remembers every call in order. The data
// itself is not retained.
type Recorder struct {
	Uploads []Upload
}

func (r *Recorder) Upload(name string, data []byte, count, stride int) {
	r.Uploads = append(r.Uploads, Upload{Name: name, Count: count, Stride: stride, Size: len(data)})
}

// Names returns the buffer names in upload order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Uploads))
	for i, u := range r.Uploads {
		out[i] = u.Name
	}
	return out
}

// Last returns the most recent upload for name.
func (r *Recorder) Last(name string) (Upload, bool) {
	for i := len(r.Uploads) - 1; i >= 0; i-- {
		if r.Uploads[i].Name == name {
			return r.Uploads[i], true
		}
	}
	return Upload{}, false
}

// Reset forgets all recorded uploads.
func (r *Recorder) Reset() {
	r.Uploads = r.Uploads[:0]
}
