package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackageListDpkg(t *testing.T) {
	out := "openssh-server\t1:9.2p1-2+deb12u2\tamd64\n" +
		"libc6\t2.36-9+deb12u4\tamd64\n" +
		"libc6\t2.36-9+deb12u4\ti386\n"

	pkgs := ParsePackageList(out)

	require.Len(t, pkgs, 2)
	require.Len(t, pkgs["libc6"], 2, "multi-arch installs keep every entry")
	assert.Equal(t, "1:9.2p1-2+deb12u2", pkgs["openssh-server"][0].Version)
	assert.Equal(t, "amd64", pkgs["libc6"][0].Architecture)
	assert.Equal(t, "i386", pkgs["libc6"][1].Architecture)
}

func TestParsePackageListRpm(t *testing.T) {
	out := "kernel\t5.14.0-362.el9\tx86_64\n" +
		"kernel\t5.14.0-370.el9\tx86_64\n" +
		"bash\t5.1.8-6.el9\tx86_64\n"

	pkgs := ParsePackageList(out)

	require.Len(t, pkgs["kernel"], 2, "multiple installed kernels keep every entry")
	assert.Equal(t, "5.1.8-6.el9", pkgs["bash"][0].Version)
}

func TestParsePackageListMalformed(t *testing.T) {
	pkgs := ParsePackageList("no-tabs-here\n\n  \nname\tversion\n")

	require.Len(t, pkgs, 1)
	assert.Equal(t, "version", pkgs["name"][0].Version)
	assert.Empty(t, pkgs["name"][0].Architecture)
}

func TestPackageBranchesCoverKnownFamilies(t *testing.T) {
	assert.Contains(t, packageBranches, FamilyDebian)
	assert.Contains(t, packageBranches, FamilyRHEL)
	assert.NotContains(t, packageBranches, FamilyUnknown)

	assert.Equal(t, "packages_dpkg", packageBranches[FamilyDebian].rawArtifact)
	assert.Equal(t, "packages_rpm", packageBranches[FamilyRHEL].rawArtifact)
}
