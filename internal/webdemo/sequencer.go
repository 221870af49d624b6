package webdemo

import "math"

const (
	stepCount       = 16
	minDecaySeconds = 0.01
	maxNotes        = 64
	attackSeconds   = 0.005
)

// StepConfig defines one sequencer step.
type StepConfig struct {
	Enabled bool
	FreqHz  float64
}

// Waveform defines the oscillator shape of sequencer notes.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

// note is one sounding sequencer step.
type note struct {
	waveform    Waveform
	phase       float64
	phaseStep   float64
	ageSamples  int
	decaySample int
}

// sequencer is the 16-step test-signal source fed into the pitch engine.
type sequencer struct {
	sampleRate float64
	tempoBPM   float64
	decaySec   float64
	waveform   Waveform
	running    bool

	steps       [stepCount]StepConfig
	currentStep int

	samplesUntilNextStep float64
	notes                []note
}

func newSequencer(sampleRate float64) *sequencer {
	s := &sequencer{
		sampleRate: sampleRate,
		tempoBPM:   110,
		decaySec:   0.25,
		notes:      make([]note, 0, maxNotes),
	}
	for i := range s.steps {
		s.steps[i] = StepConfig{Enabled: i%4 == 0, FreqHz: defaultStepFreq(i)}
	}
	s.samplesUntilNextStep = s.stepDurationSamples()
	return s
}

func (s *sequencer) setWaveform(name string) {
	switch name {
	case "triangle":
		s.waveform = WaveTriangle
	case "saw":
		s.waveform = WaveSaw
	case "square":
		s.waveform = WaveSquare
	default:
		s.waveform = WaveSine
	}
}

func (s *sequencer) setTransport(tempoBPM, decaySec float64) {
	if tempoBPM > 0 {
		s.tempoBPM = tempoBPM
	}
	s.decaySec = max(decaySec, minDecaySeconds)
}

func (s *sequencer) setRunning(running bool) {
	if running && !s.running {
		s.currentStep = 0
		s.samplesUntilNextStep = 0
	}
	s.running = running
}

func (s *sequencer) setSteps(steps []StepConfig) {
	for i := 0; i < stepCount && i < len(steps); i++ {
		cfg := steps[i]
		if cfg.FreqHz <= 0 {
			cfg.FreqHz = 110
		}
		s.steps[i] = cfg
	}
}

// next advances the transport by one sample and returns the summed notes.
func (s *sequencer) next() float64 {
	if s.running {
		s.samplesUntilNextStep--
		for s.samplesUntilNextStep <= 0 {
			s.trigger()
			s.currentStep = (s.currentStep + 1) % stepCount
			s.samplesUntilNextStep += s.stepDurationSamples()
		}
	}

	if len(s.notes) == 0 {
		return 0
	}
	attack := max(int(attackSeconds*s.sampleRate), 1)

	sum := 0.0
	write := 0
	for _, n := range s.notes {
		if n.ageSamples >= n.decaySample {
			continue
		}
		sum += envelope(n.ageSamples, attack, n.decaySample) * waveSample(n.waveform, n.phase)

		n.phase += n.phaseStep
		if n.phase > math.Pi {
			n.phase -= 2 * math.Pi
		}
		n.ageSamples++
		s.notes[write] = n
		write++
	}
	s.notes = s.notes[:write]
	return sum
}

func (s *sequencer) trigger() {
	step := s.steps[s.currentStep]
	if !step.Enabled || step.FreqHz <= 0 {
		return
	}
	if len(s.notes) >= maxNotes {
		copy(s.notes, s.notes[1:])
		s.notes = s.notes[:maxNotes-1]
	}
	s.notes = append(s.notes, note{
		waveform:    s.waveform,
		phaseStep:   2 * math.Pi * step.FreqHz / s.sampleRate,
		decaySample: max(int(s.decaySec*s.sampleRate), 1),
	})
}

func (s *sequencer) stepDurationSamples() float64 {
	return s.sampleRate * 60.0 / s.tempoBPM / 4.0
}

// envelope is an exponential attack/decay from 1e-4 to 0.22 and back.
func envelope(age, attack, decay int) float64 {
	const floor = 0.0001
	const peak = 0.22

	if age < attack {
		t := float64(age) / float64(attack)
		return floor * math.Pow(peak/floor, t)
	}
	if decay <= attack {
		return floor
	}
	t := float64(age-attack) / float64(decay-attack)
	return peak * math.Pow(floor/peak, t)
}

func defaultStepFreq(i int) float64 {
	defaults := [...]float64{130.81, 164.81, 196, 220, 261.63, 329.63, 392, 440}
	return defaults[i%len(defaults)]
}

func waveSample(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	case WaveSaw:
		return phase / math.Pi
	case WaveSquare:
		if math.Sin(phase) >= 0 {
			return 1
		}
		return -1
	default:
		return math.Sin(phase)
	}
}
