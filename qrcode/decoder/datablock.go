package decoder

// DataBlock is one block's data codewords followed by its EC codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks undoes the block interleaving of rawCodewords.
func GetDataBlocks(rawCodewords []byte, version *Version, ecLevel ErrorCorrectionLevel) []DataBlock {
	ecBlocks := version.ECBlocksForLevel(ecLevel)

	var result []DataBlock
	for _, block := range ecBlocks.Blocks {
		for i := 0; i < block.Count; i++ {
			result = append(result, DataBlock{
				NumDataCodewords: block.DataCodewords,
				Codewords:        make([]byte, block.DataCodewords+ecBlocks.ECCodewordsPerBlock),
			})
		}
	}

	// Longer blocks, if any, come last and carry one extra data codeword.
	shortDataLen := result[0].NumDataCodewords
	longerStart := len(result)
	for longerStart > 0 && result[longerStart-1].NumDataCodewords > shortDataLen {
		longerStart--
	}

	offset := 0
	for i := 0; i < shortDataLen; i++ {
		for j := range result {
			result[j].Codewords[i] = rawCodewords[offset]
			offset++
		}
	}
	for j := longerStart; j < len(result); j++ {
		result[j].Codewords[shortDataLen] = rawCodewords[offset]
		offset++
	}
	for i := 0; i < ecBlocks.ECCodewordsPerBlock; i++ {
		for j := range result {
			result[j].Codewords[result[j].NumDataCodewords+i] = rawCodewords[offset]
			offset++
		}
	}
	return result
}
