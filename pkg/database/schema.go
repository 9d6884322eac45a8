package database

// Foreign keys carry no cascades. Deleting a species that still has
// dependent rows fails with a constraint error.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS Especies (
		EspecieID INTEGER PRIMARY KEY AUTOINCREMENT,
		NomeCientifico TEXT NOT NULL,
		NomePopular TEXT,
		Familia TEXT,
		Descricao TEXT,
		DataCadastro DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS Biomas (
		BiomaID INTEGER PRIMARY KEY AUTOINCREMENT,
		Nome TEXT NOT NULL,
		Descricao TEXT,
		Regiao TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS Ocorrencias (
		OcorrenciaID INTEGER PRIMARY KEY AUTOINCREMENT,
		EspecieID INTEGER NOT NULL REFERENCES Especies(EspecieID),
		BiomaID INTEGER NOT NULL REFERENCES Biomas(BiomaID),
		Frequencia TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS Caracteristicas (
		CaracteristicaID INTEGER PRIMARY KEY AUTOINCREMENT,
		EspecieID INTEGER NOT NULL REFERENCES Especies(EspecieID),
		AlturaMedia DECIMAL(10,2),
		DiametroMedio DECIMAL(10,2),
		TipoFolha TEXT,
		Floracao TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS Curiosidades (
		CuriosidadeID INTEGER PRIMARY KEY AUTOINCREMENT,
		EspecieID INTEGER NOT NULL REFERENCES Especies(EspecieID),
		Texto TEXT NOT NULL,
		Fonte TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS DadosArvore (
		DadosID INTEGER PRIMARY KEY AUTOINCREMENT,
		EspecieID INTEGER NOT NULL REFERENCES Especies(EspecieID),
		TempoDeVidaEstimado INTEGER,
		CrescimentoAnual DECIMAL(10,2),
		RaizProfundidadeMedia DECIMAL(10,2),
		DensidadeMadeira DECIMAL(10,3)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_ocorrencias_especie ON Ocorrencias(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_ocorrencias_bioma ON Ocorrencias(BiomaID);`,
	`CREATE INDEX IF NOT EXISTS idx_caracteristicas_especie ON Caracteristicas(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_curiosidades_especie ON Curiosidades(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_dadosarvore_especie ON DadosArvore(EspecieID);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS Especies (
		EspecieID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		NomeCientifico VARCHAR(255) NOT NULL,
		NomePopular VARCHAR(255),
		Familia VARCHAR(255),
		Descricao TEXT,
		DataCadastro TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS Biomas (
		BiomaID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		Nome VARCHAR(255) NOT NULL,
		Descricao TEXT,
		Regiao VARCHAR(255)
	);`,
	`CREATE TABLE IF NOT EXISTS Ocorrencias (
		OcorrenciaID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		EspecieID BIGINT NOT NULL REFERENCES Especies(EspecieID),
		BiomaID BIGINT NOT NULL REFERENCES Biomas(BiomaID),
		Frequencia VARCHAR(100)
	);`,
	`CREATE TABLE IF NOT EXISTS Caracteristicas (
		CaracteristicaID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		EspecieID BIGINT NOT NULL REFERENCES Especies(EspecieID),
		AlturaMedia NUMERIC(10,2),
		DiametroMedio NUMERIC(10,2),
		TipoFolha VARCHAR(100),
		Floracao TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS Curiosidades (
		CuriosidadeID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		EspecieID BIGINT NOT NULL REFERENCES Especies(EspecieID),
		Texto TEXT NOT NULL,
		Fonte VARCHAR(255)
	);`,
	`CREATE TABLE IF NOT EXISTS DadosArvore (
		DadosID BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		EspecieID BIGINT NOT NULL REFERENCES Especies(EspecieID),
		TempoDeVidaEstimado INTEGER,
		CrescimentoAnual NUMERIC(10,2),
		RaizProfundidadeMedia NUMERIC(10,2),
		DensidadeMadeira NUMERIC(10,3)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_ocorrencias_especie ON Ocorrencias(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_ocorrencias_bioma ON Ocorrencias(BiomaID);`,
	`CREATE INDEX IF NOT EXISTS idx_caracteristicas_especie ON Caracteristicas(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_curiosidades_especie ON Curiosidades(EspecieID);`,
	`CREATE INDEX IF NOT EXISTS idx_dadosarvore_especie ON DadosArvore(EspecieID);`,
}
