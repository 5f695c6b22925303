package squareroot

import "math"
import "math/rand"

import "gonum.org/v1/gonum/mat"

// Sample is one input integer of the dataset.
type Sample uint32

// Bits is the number of input bits of the Medium dataset.
const Bits = 10

// Number of classes of the Small, Medium and Big datasets.
const SmallClasses = 1 << 4
const MediumClasses = 1 << 5
const BigClasses = 1 << 6

// Feature returns the n-th input bit as 0 or 1.
func (s Sample) Feature(n int) float64 {
	return float64((uint32(s) >> uint(n)) & 1)
}

// Output is the class label, the integer square root of the sample.
func (s Sample) Output() int {
	return int(math.Sqrt(float64(s)))
}

func span(bits uint) (ret []Sample) {
	for i := uint32(0); i < 1<<bits; i++ {
		ret = append(ret, Sample(i))
	}
	return
}

// Small returns all 8 bit samples.
func Small() []Sample {
	return span(8)
}

// Medium returns all 10 bit samples.
func Medium() []Sample {
	return span(Bits)
}

// Big returns all 12 bit samples.
func Big() []Sample {
	return span(12)
}

// Batch converts samples into a feature matrix with bits columns and the label vector.
func Batch(samples []Sample, bits int) (*mat.Dense, []int) {
	x := mat.NewDense(len(samples), bits, nil)
	y := make([]int, len(samples))
	for i, s := range samples {
		row := x.RawRowView(i)
		for n := range row {
			row[n] = s.Feature(n)
		}
		y[i] = s.Output()
	}
	return x, y
}

// Split shuffles a copy of samples with r and splits it into train and test
// parts, ratio being the train share.
func Split(samples []Sample, ratio float64, r *rand.Rand) (train, test []Sample) {
	shuf := append([]Sample(nil), samples...)
	r.Shuffle(len(shuf), func(i, j int) { shuf[i], shuf[j] = shuf[j], shuf[i] })
	n := int(float64(len(shuf)) * ratio)
	if n < 0 {
		n = 0
	}
	if n > len(shuf) {
		n = len(shuf)
	}
	return shuf[:n], shuf[n:]
}

// Batches cuts samples into consecutive batches of at most size samples.
func Batches(samples []Sample, size int) (o [][]Sample) {
	if size <= 0 {
		size = len(samples)
	}
	for len(samples) > 0 {
		n := size
		if n > len(samples) {
			n = len(samples)
		}
		o = append(o, samples[:n])
		samples = samples[n:]
	}
	return
}
