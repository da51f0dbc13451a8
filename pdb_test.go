/*
 * pdb_test.go, part of frameorder.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package frameorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoModels = `REMARK   two models of a dipeptide fragment
MODEL        1
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  H   ALA A   1      11.639   6.071  -5.657  1.00  0.00           H
ATOM      3  CA  ALA A   1      11.639   6.071  -7.932  1.00  0.00
HETATM    4 DY   LN3 A 101       0.000   0.000   0.000  1.00  0.00          DY
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1      11.204   6.134  -6.504  1.00  0.00           N
ATOM      2  H   ALA A   1      11.739   6.071  -5.657  1.00  0.00           H
ATOM      3  CA  ALA A   1      11.739   6.071  -7.932  1.00  0.00
HETATM    4 DY   LN3 A 101       0.000   0.000   0.000  1.00  0.00          DY
ENDMDL
END
`

func TestPDBReader(Te *testing.T) {
	P := NewPDBReader(strings.NewReader(twoModels))
	S, err := NewStructure(P)
	require.NoError(Te, err)
	require.NoError(Te, P.Err())
	assert.Equal(Te, 4, S.Len())
	assert.Equal(Te, 2, S.NModels())
	assert.Equal(Te, "C", S.Atoms[2].Symbol)
	assert.Equal(Te, "Dy", S.Atoms[3].Symbol)
	assert.Equal(Te, "LN3", S.Atoms[3].Molname)
	assert.Equal(Te, 101, S.Atoms[3].Molid)
	i := S.Index(":1@H")
	require.Equal(Te, 1, i)
	pos := S.Positions(i)
	assert.InDelta(Te, 11.639, pos[0].X, 1e-9)
	assert.InDelta(Te, 11.739, pos[1].X, 1e-9)
	assert.InDelta(Te, -5.657, pos[1].Z, 1e-9)
}

func TestPDBReaderErrors(Te *testing.T) {
	bad := "ATOM      1  N   ALA A   1      11.104   xx.xxx  -6.504  1.00  0.00           N\n"
	P := NewPDBReader(strings.NewReader(bad))
	_, ok := P.Next()
	assert.False(Te, ok)
	assert.Equal(Te, InvalidData, KindOf(P.Err()))
	P = NewPDBReader(strings.NewReader("ATOM      1  N   ALA A   1  \n"))
	_, ok = P.Next()
	assert.False(Te, ok)
	assert.Equal(Te, InvalidData, KindOf(P.Err()))
	_, err := NewStructure(NewPDBReader(strings.NewReader("REMARK nothing\n")))
	assert.Equal(Te, MissingRequiredData, KindOf(err))
}

func TestReadPDB(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "frag.pdb")
	require.NoError(Te, os.WriteFile(name, []byte(twoModels), 0o644))
	S, err := ReadPDB(name)
	require.NoError(Te, err)
	assert.Equal(Te, 2, S.NModels())
	_, err = ReadPDB(filepath.Join(Te.TempDir(), "missing.pdb"))
	assert.Error(Te, err)
}

func TestSymbolFromName(Te *testing.T) {
	for name, sym := range map[string]string{"CA": "C", "HG21": "H", "ZN": "Zn", "OD1": "O", "SG": "S", "TB": "Tb", "XX": ""} {
		assert.Equal(Te, sym, symbolFromName(name), name)
	}
}
