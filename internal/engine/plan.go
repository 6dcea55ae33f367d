package engine

// minChunkFrames keeps chunks long enough that ffmpeg startup and the
// final concatenation stay cheap next to the rendering itself.
const minChunkFrames = 30

// Chunk is a contiguous frame range [From, To) of one scene, rendered and
// encoded by a single worker.
type Chunk struct {
	Scene int
	Index int // position within the scene
	From  int
	To    int
	Path  string // encoded segment, set while rendering
}

func (c Chunk) Frames() int {
	return c.To - c.From
}

// Plan splits every scene into at most workers contiguous chunks of near
// equal size. Chunks are ordered by scene, then by frame.
func Plan(frames []int, workers int) []Chunk {
	if workers < 1 {
		workers = 1
	}
	var chunks []Chunk
	for scene, n := range frames {
		if n <= 0 {
			continue
		}
		k := (n + minChunkFrames - 1) / minChunkFrames
		if k > workers {
			k = workers
		}
		for i := 0; i < k; i++ {
			chunks = append(chunks, Chunk{
				Scene: scene,
				Index: i,
				From:  i * n / k,
				To:    (i + 1) * n / k,
			})
		}
	}
	return chunks
}
