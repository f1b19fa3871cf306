package faq

import (
	"math"
	"sort"
)

// sparseVector is an L2-normalized term weight vector keyed by vocabulary index.
type sparseVector map[int]float64

// vectorSpace is a TF-IDF model fitted over one set of question texts.
// Weights use raw term counts and smoothed idf, ln((1+n)/(1+df)) + 1.
type vectorSpace struct {
	vocabulary map[string]int
	idf        []float64
	docs       []sparseVector
}

func fitVectorSpace(texts []string) *vectorSpace {
	tokenized := make([][]string, len(texts))
	vocabulary := make(map[string]int)
	var terms []string
	for i, text := range texts {
		tokenized[i] = tokenize(text)
		for _, term := range tokenized[i] {
			if _, ok := vocabulary[term]; !ok {
				vocabulary[term] = -1
				terms = append(terms, term)
			}
		}
	}
	// stable indices, independent of map iteration order
	sort.Strings(terms)
	for i, term := range terms {
		vocabulary[term] = i
	}

	df := make([]int, len(terms))
	for _, tokens := range tokenized {
		seen := make(map[int]struct{}, len(tokens))
		for _, term := range tokens {
			idx := vocabulary[term]
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, count := range df {
		idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}

	space := &vectorSpace{vocabulary: vocabulary, idf: idf}
	space.docs = make([]sparseVector, len(tokenized))
	for i, tokens := range tokenized {
		space.docs[i] = space.weigh(tokens)
	}
	return space
}

// transform projects text into the fitted space. Out-of-vocabulary terms are ignored.
func (s *vectorSpace) transform(text string) sparseVector {
	return s.weigh(tokenize(text))
}

func (s *vectorSpace) weigh(tokens []string) sparseVector {
	vec := make(sparseVector)
	for _, term := range tokens {
		idx, ok := s.vocabulary[term]
		if !ok {
			continue
		}
		vec[idx]++
	}
	var norm float64
	for idx, tf := range vec {
		w := tf * s.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// rank returns the index of the most similar document and its cosine score.
// Ties resolve to the lowest index. ok is false when the space has no documents.
func (s *vectorSpace) rank(query sparseVector) (best int, score float64, ok bool) {
	if len(s.docs) == 0 {
		return 0, 0, false
	}
	best, score = 0, cosine(query, s.docs[0])
	for i := 1; i < len(s.docs); i++ {
		if sim := cosine(query, s.docs[i]); sim > score {
			best, score = i, sim
		}
	}
	return best, score, true
}

// cosine assumes both vectors are already L2-normalized.
func cosine(a, b sparseVector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}
