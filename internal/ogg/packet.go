package ogg

// Paginate lays packets out into consecutive pages of one logical stream,
// numbering them from firstSequence.
//
// Each page holds at most 255 lacing values. A page that starts in the middle
// of a packet is flagged continued. Pages on which some packet ends carry
// granule; pages on which none does carry NoGranule. Checksums are generated.
func Paginate(packets [][]byte, serial, firstSequence uint32, granule uint64) []*Page {
	if len(packets) == 0 {
		return nil
	}

	var lacing []byte
	var content []byte
	for _, packet := range packets {
		n := len(packet)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		lacing = append(lacing, byte(n))
		content = append(content, packet...)
	}

	var pages []*Page
	continued := false
	seq := firstSequence
	for len(lacing) > 0 {
		count := min(len(lacing), maxSegments)
		segs := lacing[:count]
		lacing = lacing[count:]

		size := 0
		ends := false
		for _, s := range segs {
			size += int(s)
			if s < 255 {
				ends = true
			}
		}

		p := &Page{
			Serial:          serial,
			Sequence:        seq,
			GranulePosition: NoGranule,
			Segments:        append([]byte(nil), segs...),
			Content:         append([]byte(nil), content[:size]...),
		}
		content = content[size:]
		if continued {
			p.HeaderType |= FlagContinued
		}
		if ends {
			p.GranulePosition = granule
		}
		p.GenerateChecksum()

		pages = append(pages, p)
		continued = segs[len(segs)-1] == 255
		seq++
	}

	return pages
}

// Packets reassembles the packets carried by pages. A packet still open at
// the end of the last page is returned separately as partial.
//
// Content preceding the first packet boundary on a continued first page
// belongs to a packet that started on an earlier page and is discarded.
func Packets(pages []*Page) (packets [][]byte, partial []byte) {
	var current []byte
	skipping := len(pages) > 0 && pages[0].IsContinued()

	for _, p := range pages {
		off := 0
		for _, s := range p.Segments {
			end := off + int(s)
			if !skipping {
				current = append(current, p.Content[off:end]...)
			}
			off = end
			if s < 255 {
				if !skipping {
					packets = append(packets, current)
				}
				current = nil
				skipping = false
			}
		}
	}

	return packets, current
}
