package types

// Rosters used by the three probe binaries.

func FlowRoster() Roster {
	return Roster{
		{Type: TypeGuerrier, Name: "Conan"},
		{Type: TypeBerserker, Name: "Ragnar"},
		{Type: TypeMagicien, Name: "Merlin"},
		{Type: TypeAssassin, Name: "Shadow"},
	}
}

func BasicRoster() Roster {
	return Roster{
		{Type: TypeGuerrier, Name: "Conan"},
		{Type: TypeBerserker, Name: "Ragnar"},
	}
}

func DockerRoster() Roster {
	return Roster{
		{Type: TypeGuerrier, Name: "Arthas"},
		{Type: TypeMagicien, Name: "Jaina"},
		{Type: TypePretre, Name: "Uther"},
		{Type: TypeAssassin, Name: "Valeera"},
	}
}
